// Package osver places calculator models and OS releases on a single global
// timeline.
//
// Every known model has a rank in an order table embedded at build time.
// Models that shipped identical token tables share a rank and compare equal.
// A Point pairs a model with an OS release on that model; points are totally
// ordered by model rank first and OS version second, which is the order every
// token timeline is expressed in.
//
// The pseudo-model "latest" ranks above all hardware. It exists so callers
// can ask for the newest state of the token tables without naming a device;
// sheet data itself must always name concrete hardware.
package osver
