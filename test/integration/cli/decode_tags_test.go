//go:build !barcode_none

package cli_test

// buildTagFilter skips scenarios that expect the decoder to be missing.
const buildTagFilter = "~@nodecode"
