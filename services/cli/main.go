package main

import "github.com/02loveslollipop/yakchatja/services/cli/cmd"

func main() {
	cmd.Execute()
}
