//go:build ignore

// 生成闸门口令的 bcrypt 哈希，写入 configs/config.yaml 的 gate.access_code_hash
//
//	go run scripts/gen_access_hash.go -code "your-access-code"
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	code := flag.String("code", "", "要哈希的共享口令")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if *code == "" {
		log.Fatal("usage: go run scripts/gen_access_hash.go -code <access-code>")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*code), *cost)
	if err != nil {
		log.Fatalf("hash failed: %v", err)
	}

	fmt.Println(string(hash))
}
