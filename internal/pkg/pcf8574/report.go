package pcf8574

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

// WriteReport prints a port value in binary and hexadecimal
func WriteReport(w io.Writer, au aurora.Aurora, port byte) error {
	_, err := fmt.Fprintf(w, "%s\n   binary: 0b%08b\n   hex: 0x%02x\n",
		au.Bold(au.Cyan("Port:")), port, port)
	return err
}
