// Package tlsroots builds the trust store for daemon addresses served over
// HTTPS.
//
// The pool starts from the system roots; a private CA can be added from a
// PEM file so a daemon with a self-issued certificate can be verified.
package tlsroots
