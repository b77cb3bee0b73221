// disk.go - the Disk contract the DISK_READ/DISK_WRITE emulator escapes
// use, plus a boot-sector sniff helper that nothing in this package calls.
//
// Grounded on virtualxt's checkBootsector (other_examples/andreas-jonsson-
// virtualxt__emulator.go), which seeks an *os.File-backed drive image back
// to 0 after reading its boot sector; narrowed here to the seek-then-
// transfer shape spec.md 4.3's escape opcodes actually exercise: a single
// current offset rather than an explicit position parameter per call.
package main

import (
	"io"
	"os"
)

// Disk is a seekable byte store backing one of the three DISK_READ/WRITE
// slots (HD, FD, BIOS). Seek reports false when the underlying seek fails
// so the escape handler can zero AL instead of propagating an error type
// the guest has no way to observe; FileDisk.Seek past the end of the
// image succeeds.
type Disk interface {
	Seek(offset int64) bool
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// FileDisk backs a Disk with an *os.File image, letting the FD slot be
// re-pointed at a different image file without restarting the VM (spec.md
// 8's "swap the floppy image file backing disk[1] mid-run" scenario).
type FileDisk struct {
	f        *os.File
	readOnly bool
}

func OpenDisk(path string, readOnly bool) (*FileDisk, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	return &FileDisk{f: f, readOnly: readOnly}, nil
}

func (d *FileDisk) Seek(offset int64) bool {
	_, err := d.f.Seek(offset, io.SeekStart)
	return err == nil
}

func (d *FileDisk) Read(p []byte) (int, error) {
	return io.ReadFull(d.f, p)
}

func (d *FileDisk) Write(p []byte) (int, error) {
	if d.readOnly {
		return 0, os.ErrPermission
	}
	return d.f.Write(p)
}

func (d *FileDisk) Close() error { return d.f.Close() }

// LooksBootable checks the 0x55AA boot signature at the end of a 512-byte
// sector. main.go does not call it; it is a helper for a Host that wants
// to check an image before wiring it into the HD or FD disk slot.
func LooksBootable(sector [512]byte) bool {
	return sector[510] == 0x55 && sector[511] == 0xAA
}
