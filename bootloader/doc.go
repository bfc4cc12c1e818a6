// Package bootloader programs firmware images into a device's update agent
// over DFU.
//
// # Overview
//
// This package drives the host side of a firmware update:
//   - Cutting the image into partition-relative transfer blocks
//   - Encrypting it for devices with a provisioned signing key
//   - Downloading every block, clearing and retrying transient failures
//   - Reading the partition back and comparing it with what was sent
//
// # Basic Usage
//
//	fw, err := image.LoadHex("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prog := bootloader.New(engine, layout.Default())
//	if err := prog.Program(context.Background(), fw); err != nil {
//	    log.Fatal(err)
//	}
//
// The target is anything implementing Target; a *dfu.Engine does.
//
// # Progress Tracking
//
//	prog := bootloader.New(engine, l,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("[%s] %.1f%% - Block %d/%d\n",
//	            p.Phase, p.Percentage, p.CurrentBlock, p.TotalBlocks)
//	    }),
//	)
//
// # Configuration Options
//
//	prog := bootloader.New(engine, l,
//	    bootloader.WithKey(key),
//	    bootloader.WithLogger(diag.Glog()),
//	    bootloader.WithBlockSize(64),
//	    bootloader.WithRetries(3),
//	    bootloader.WithVerifyAfterProgram(true),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - BlockError: a block could not be downloaded; wraps the *dfu.Error
//   - VerificationError: read-back data differs from what was sent
//   - image.RangeError: the image does not fit the firmware partition
package bootloader
