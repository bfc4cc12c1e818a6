// Package device is the process context of the firmware: it owns the config
// store, the error latch and the transfer session, and runs the startup
// sequence and the main loop.
//
// # Startup
//
// Start performs, in order:
//  1. Load the configuration record (a corrupt record clears flash_success)
//  2. Light the green LED
//  3. Wipe the signing key and halt if the unlock jumper is fitted
//  4. Rewrite a corrupt record
//  5. Wipe the scratch memory
//  6. Decide whether to enter the installed application
//  7. Run the config and scratch memory self tests when staying resident
//     (WithSelfTest)
//
// # Main Loop
//
// USB event handlers only record work (OnSetup, OnTransferComplete,
// OnBusReset). Step, called once per main-loop iteration, acts on it:
//
//	d := device.New(hw, l, dev, eeprom, scratch, link)
//	if err := d.Start(); err != nil {
//	    return err
//	}
//	for {
//	    if err := d.Step(); err != nil {
//	        return err
//	    }
//	}
//
// Fatal errors are shown on the LEDs and passed to the board's Halter.
package device
