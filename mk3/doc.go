// Package mk3 implements the binary protocol codec and the stateful input
// event engine for the Maschine MK3 controller: decoding of button/knob and
// pad input packets, diffing of successive input states into discrete
// events, LED state encoding (17-color palette plus brightness), and the
// display region protocol with dirty-rectangle change detection on retained
// framebuffers.
//
// The package is transport-agnostic: it talks to the hardware through the
// Transport interface and never references USB or HID specifics.
package mk3
