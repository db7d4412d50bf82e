package main

import "github.com/eunbikang/worklog-management/cmd"

func main() {
	cmd.Execute()
}
