// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package etwprovider describes the external event-tracing provider
// API etw2ctf consumes: the platform helper that opens trace handles,
// iterates buffers and records, and resolves per-property metadata.
//
// This package is a contract, not an implementation: a Windows ETW/TDH
// binding would satisfy it, as the dependency-free Provider in the
// synthetic subpackage does, and the pipeline driver is coded only
// against the interfaces here.
package etwprovider

import (
	"context"

	"github.com/google/uuid"
)

// InType is the encoded representation of a property value, as
// reported by the provider's schema (TDH_IN_TYPE on Windows). Naming
// follows github.com/Microsoft/go-winio's internal/etw InType/OutType
// convention.
type InType int

const (
	InTypeNull InType = iota
	InTypeUnicodeString
	InTypeAnsiString
	InTypeInt8
	InTypeUint8
	InTypeInt16
	InTypeUint16
	InTypeInt32
	InTypeUint32
	InTypeInt64
	InTypeUint64
	InTypeFloat
	InTypeDouble
	InTypeBoolean
	InTypeBinary
	InTypeGUID
	InTypePointer
	InTypeFileTime
	InTypeSystemTime
	InTypeSID
	InTypeHexInt32
	InTypeHexInt64
	InTypeUnicodeChar
	InTypeAnsiChar
	InTypeSizeT
)

// OutType is a hint for how the decoder should present a value,
// reported alongside InType (TDH_OUT_TYPE on Windows).
type OutType int

const (
	OutTypeDefault OutType = iota
	OutTypeNoPrint
	OutTypeString
	OutTypeBoolean
	OutTypeHexInt8
	OutTypeByte
	OutTypeUnsignedByte
	OutTypeHexInt16
	OutTypeShort
	OutTypeUnsignedShort
	OutTypeHexInt32
	OutTypeInt
	OutTypeUnsignedInt
	OutTypeHexInt64
)

// DecodingSource identifies the schema format TdhGetEventInformation
// resolved an event against. Only DecodingSourceWBEM and
// DecodingSourceXMLFile are understood by the payload decoder (§4.5).
type DecodingSource int

const (
	DecodingSourceXMLFile DecodingSource = iota
	DecodingSourceWBEM
	DecodingSourceWPP
	DecodingSourceTlg
)

// HeaderFlag bits from EVENT_HEADER.Flags.
type HeaderFlag uint16

const (
	FlagClassicHeader  HeaderFlag = 1 << 6
	Flag64BitHeader    HeaderFlag = 1 << 5
	Flag32BitHeader    HeaderFlag = 1 << 4
	FlagNoCPUTime      HeaderFlag = 1 << 7
	FlagTraceMessage   HeaderFlag = 1 << 9
	FlagStringOnly     HeaderFlag = 1 << 2
	FlagPrivateSession HeaderFlag = 1 << 10
	FlagExtendedInfo   HeaderFlag = 1 << 15
)

// Descriptor carries the provider-assigned identification of one
// event: its opcode/version/id/task/channel/level/keyword, copied
// verbatim into the CTF event context block (§4.3).
type Descriptor struct {
	ID      uint16
	Version uint8
	Channel uint8
	Level   uint8
	Opcode  uint8
	Task    uint16
	Keyword uint64
}

// Record is one ETW event as delivered by the provider's per-event
// callback: header, descriptor, processor/logger context,
// provider/activity GUIDs, and an opaque payload.
type Record struct {
	Descriptor  Descriptor
	Timestamp   uint64
	ProcessID   uint32
	ThreadID    uint32
	ProcessorID uint8
	LoggerID    uint16
	ProviderID  uuid.UUID
	ActivityID  uuid.UUID
	HeaderType  uint16
	Flags       HeaderFlag
	Properties  uint16

	// UserData is the raw event payload. StringOnly records carry a
	// UTF-16LE, null-terminated string; otherwise its layout is
	// described by the EventInfo the provider resolves for this record.
	UserData []byte
}

// StringOnly reports whether this record's payload is a bare
// null-terminated wide string (EVENT_HEADER_FLAG_STRING_ONLY).
func (r *Record) StringOnly() bool { return r.Flags&FlagStringOnly != 0 }

// PropertyInfo describes one top-level or nested property of an
// event's schema (EVENT_PROPERTY_INFO on Windows).
type PropertyInfo struct {
	Name    string
	InType  InType
	OutType OutType
	Count   int    // number of elements; >1 means a fixed-size array
	Flags   uint32 // non-zero marks struct/parametric-count/parametric-length properties
}

// EventInfo is the schema TdhGetEventInformation resolves for one
// record (TRACE_EVENT_INFO on Windows).
type EventInfo struct {
	EventGUID      uuid.UUID
	OpcodeName     string
	DecodingSource DecodingSource
	Properties     []PropertyInfo
}

// PropertyPath addresses one element of one (possibly array) top-level
// property, the minimal path TdhGetPropertySize/TdhGetProperty need.
type PropertyPath struct {
	Name  string
	Index int
}

// Provider is the external collaborator contract (spec §6): it opens
// trace handles, iterates buffers and records, and resolves per-property
// metadata. This module contains no Windows/TDH binding; its only
// implementation here is the synthetic package, used for tests and
// fixtures.
type Provider interface {
	// OpenTrace opens path for consuming and returns an opaque handle.
	OpenTrace(ctx context.Context, path string) (Handle, error)

	// ProcessTrace drives handles to completion, invoking cb's
	// BeginBuffer for each buffer and ProcessEvent for each record, in
	// stream order, before returning.
	ProcessTrace(ctx context.Context, handles []Handle, cb Callbacks) error

	// CloseTrace releases a handle opened by OpenTrace.
	CloseTrace(h Handle) error

	// GetEventInfo resolves the schema for rec. The distinguished
	// ErrInsufficientBuffer signals the caller should retry.
	GetEventInfo(rec *Record) (*EventInfo, error)

	// GetPropertySize returns the encoded size in bytes of the
	// property addressed by path within rec.
	GetPropertySize(rec *Record, path []PropertyPath) (int, error)

	// GetProperty decodes the property addressed by path within rec
	// into out, which must be at least GetPropertySize(rec, path)
	// bytes long.
	GetProperty(rec *Record, path []PropertyPath, out []byte) error
}

// Handle is an opaque reference to a trace opened with OpenTrace.
type Handle interface {
	// BufferName is a caller-assigned identifier for stream naming
	// when --split-buffer is in effect (e.g. the ETW "buffers read"
	// count for this source file).
	BufferName() string
}

// Callbacks are the per-buffer and per-event hooks ProcessTrace
// invokes. Both callbacks run on the caller's thread and must return
// before the next is invoked (spec §5: single-threaded, synchronous).
type Callbacks struct {
	// BeginBuffer is called once per buffer, before any of its
	// records are delivered to ProcessEvent.
	BeginBuffer func(h Handle) error

	// ProcessEvent is called once per record, in stream order.
	ProcessEvent func(rec *Record) error
}

// ErrInsufficientBuffer is returned by GetEventInfo when its output
// buffer was too small; RequiredSize reports the size to retry with.
// This is a protocol signal, not a failure (§4.5, §7): the caller
// retries GetEventInfo exactly once. GetEventInfo takes no caller
// buffer, so the caller has nothing to resize; RequiredSize is
// informational.
type ErrInsufficientBuffer struct {
	RequiredSize int
}

func (e *ErrInsufficientBuffer) Error() string {
	return "etwprovider: buffer too small"
}
