package main

import "github.com/user/nla-timeline-cli/cmd"

func main() {
	cmd.Execute()
}
