// SPDX-License-Identifier: MPL-2.0

// Package main implements the taskweave CLI.
package main

func main() {
	Execute()
}
