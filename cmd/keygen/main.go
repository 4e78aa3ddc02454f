package main

import (
	"fmt"
	"os"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/cipher/fernet"
)

// keygen prints a fresh ballot key suitable for BALLOT_KEYS.
func main() {
	key, err := fernet.GenerateKey()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(key)
}
