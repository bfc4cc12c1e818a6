// Package dfu implements the device side of the USB Device Firmware Update
// transfer contract.
//
// The USB class layer calls Engine.WriteBlock for every DFU_DNLOAD block and
// Engine.ReadBlock for every DFU_UPLOAD block. Alternate setting 0 addresses
// the firmware partition in program flash; alternate setting 1, when a
// scratch memory is attached, addresses the scratch memory directly.
//
// # Firmware Writes
//
// A firmware block goes through these steps, stopping at the first failure:
//
//   - the transfer session is marked as used
//   - the block is decrypted when a signing key is provisioned
//   - block 0 must carry accepted values in its vector words (errFILE)
//   - a confirmed image is invalidated and the record persisted
//   - the erase block is erased when the address starts one (errERASE)
//   - the block is programmed (errWRITE)
//
// A failed block moves the interface to dfuERROR with the matching status
// until ClearStatus is called.
//
// # Firmware Reads
//
// Reads return the partition contents, re-encrypted when a signing key is
// provisioned, so plaintext firmware never leaves a keyed device.
package dfu
