// Package device drives the download sequence for IconHD-family dive
// computers: connection bring-up, single-flight command exchange and the
// backward memory scan that recovers dive records.
//
// # Overview
//
// The package is organized around three cooperating pieces:
//   - Manager: a connection state machine that owns the serial channel and
//     executes the timing-critical power-up sequence
//   - the transport session (internal): one command, one framed response,
//     one timeout, never more than one exchange in flight
//   - Scanner: walks device log memory backward in fixed-size blocks and
//     hands candidate blocks to the dive decoder
//
// # Basic Usage
//
//	mgr := device.NewManager(serialport.Open)
//
//	if err := mgr.Connect(ctx, "/dev/ttyUSB0"); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Disconnect()
//
//	info, err := mgr.Identify(ctx)
//	dives, err := mgr.DownloadDives(ctx)
//
// # The Bring-Up Sequence
//
// The device's boot ROM interprets premature or malformed signaling as a
// reset request. Connect therefore performs, as a non-skippable prefix of
// every attempt: open at 115200 8E1, settle, deassert RTS and DTR, settle
// again, and only then report Connected. No command is sent automatically;
// sending anything before the second settle completes reboots the device.
//
// # Progress Tracking
//
// A full memory scan takes minutes at 115200 baud. Track it with a callback:
//
//	mgr := device.NewManager(serialport.Open,
//	    device.WithProgressCallback(func(p device.Progress) {
//	        fmt.Printf("[%s] %.1f%% - %d dives\n", p.Phase, p.Percentage, p.DivesFound)
//	    }),
//	)
//
// # Logging
//
// Integrate with any logging framework via the Logger interface:
//
//	mgr := device.NewManager(serialport.Open, device.WithLogger(myLogger))
//
// # Hardware Independence
//
// The package does not open serial ports itself. Callers supply an Opener;
// package serialport provides the real implementation, and tests supply
// scripted fakes. This keeps the protocol engine independent of any
// particular transport.
package device
