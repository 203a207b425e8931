// Command hashpw prints the bcrypt hash of a password for use as the
// ADMIN_PASSWORD_HASH environment variable.
//
//	hashpw [-cost N] <password>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/office-seat-allocation/internal/utils"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hashpw [-cost N] <password>")
		os.Exit(2)
	}

	hash, err := utils.HashPassword(flag.Arg(0), *cost)
	if err != nil {
		log.Fatalf("hashing failed: %v", err)
	}
	fmt.Println(hash)
}
