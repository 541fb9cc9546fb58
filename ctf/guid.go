// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import "github.com/google/uuid"

// GUID is a 128-bit provider/activity/trace identifier.
//
// A Windows GUID{Data1,Data2,Data3,Data4} is serialized on the wire as
// Data1/Data2/Data3 big-endian followed by Data4 verbatim — which is
// exactly the RFC 4122 byte layout of a uuid.UUID. GUID is therefore a
// plain alias: Buffer.EncodeGUID is a 16-byte copy, not a field-by-field
// re-encode.
type GUID = uuid.UUID

// TraceGUID is the reserved ETW2CTF trace identifier, used both inside
// every packet header and as the trace uuid in the metadata file.
var TraceGUID = uuid.MustParse("29CB3580-13C6-4C85-A4CB-A2C0FFA68890")

// traceEventsGUID identifies the ETW "trace events" provider. Records
// from this provider with opcode traceEventsInfoOpcode are dropped by
// the event encoder (spec §4.3 step 1).
var traceEventsGUID = uuid.MustParse("68FDD900-4A3E-11D1-84F4-0000F80464E3")

const traceEventsInfoOpcode = 0
