package input

import "golang.org/x/sys/unix"

// enableSignals turns ISIG back on after term.MakeRaw, so ^C and ^Z
// raise signals instead of arriving as bytes.
func enableSignals(fd int) error {
	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	tio.Lflag |= unix.ISIG
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, tio)
}
