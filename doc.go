/*
Package dialcode is a session dialog engine for menu-based USSD-style interactions.

A gateway posts one stateless request per keypress: the subscriber's raw dial
string, a first-contact flag and an opaque session identifier. The engine answers
with the next screen's text and whether the session continues.

# Concept

The dialog is a fixed menu tree walked one screen at a time. Subscribers may also
dial shortcuts that jump ahead:

	*920*1806#        fresh entry, welcome screen
	*920*1806*2#      direct access, answers screen 1 and shows screen 2
	*920*1806*2*1#    automatic summary, answers both screens at once

Every raw string is classified once into an entry mode (see package dial) and the
runtime matches on that mode and the session's current screen. Sessions live in a
pluggable store (memory by default, Redis optionally) and each session identifier
is serialized so duplicate deliveries apply one after the other.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/dialcode"
		"github.com/aretw0/dialcode/pkg/domain"
	)

	func main() {
		eng, err := dialcode.New()
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		ctx := context.Background()
		resp, err := eng.Handle(ctx, domain.Request{
			UserID:       "acme",
			MSISDN:       "233240000000",
			UserData:     "*920*1806#",
			SessionID:    "abc123",
			FirstContact: true,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(resp.Message)
	}

Transport adapters for HTTP and MCP live under pkg/adapters; the dialcode command
serves them and adds a terminal simulator.
*/
package dialcode
