package util

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AskForConfirmation keeps asking until it reads yes or no. End of input counts as no.
func AskForConfirmation(in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Fprintln(out, "I'm sorry but I didn't get what you meant, please type (y)es or (n)o and then press enter:")
		}
	}
	return false
}
