// SPDX-License-Identifier: MPL-2.0

// Package sshserver exposes the resolved task registry over SSH for
// `taskweave serve`. Remote sessions authenticate against an authorized-keys
// file and can list registered tasks or run one with textual arguments; a
// session without a command gets an interactive shell in the project
// directory, on a pty where the platform has one.
package sshserver
