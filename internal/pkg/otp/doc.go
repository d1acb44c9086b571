// Package otp generates short numeric one-time passcodes.
//
// Codes gate the send and decode flows: one is generated per challenge,
// delivered out of band, and only its hash is ever stored.
package otp
