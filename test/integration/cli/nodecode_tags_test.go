//go:build barcode_none

package cli_test

// buildTagFilter skips scenarios that need a linked decoder.
const buildTagFilter = "~@decode"
