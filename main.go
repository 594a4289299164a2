// matrixchat is a terminal chat client with a falling-glyph background.
package main

import "github.com/linanwx/matrixchat/cmd"

func main() {
	cmd.Execute()
}
