// Package image loads, saves and prepares firmware images for transfer.
//
// # File Format
//
// Images are stored as Intel HEX. Addresses in the file are absolute flash
// addresses; segments are merged into one flat image and any gap between
// them is filled with the erased value 0xFF.
//
// # Usage
//
// Load an image and cut it into DFU blocks for the target layout:
//
//	fw, err := image.LoadHex("colorhug-plus.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := fw.Partition(layout.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, blk := range image.Blocks(data, 64) {
//	    fmt.Printf("block 0x%04X: %d bytes\n", blk.Addr, len(blk.Data))
//	}
//
// Devices with a provisioned signing key only accept encrypted images. Encrypt
// the partition data with the same key before splitting it:
//
//	data = image.Encrypt(key, data)
//
// # Error Handling
//
// ReadHex reports malformed records and overlapping segments. Partition
// returns a *RangeError when the image does not fit the firmware partition.
package image
