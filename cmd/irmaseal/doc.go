// Command irmaseal is a command-line demonstrator for the irmaseal package:
// it generates PKG key material, extracts UserSecretKeys, and seals/unseals
// files, including a concurrent batch-seal mode driven by a YAML manifest.
package main
