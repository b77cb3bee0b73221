// log.go - package-level diagnostic logger.
//
// Grounded on the teacher's package-level *log.Logger convention
// (cpu_x86.go logs unknown opcodes through a shared logger rather than
// panicking); this VM keeps the same shape so unknown-opcode and
// diagnostic paths never crash the guest.
package main

import (
	"log"
	"os"
)

var ie86log = log.New(os.Stderr, "ie86: ", log.LstdFlags)
