// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctf

import (
	"sync"

	"github.com/google/etw2ctf/etwprovider"
)

// Sink is the documented entry point (spec §5) through which
// observers may push synthetic packets into the pipeline's sending
// queue and assign them layout ids. Observers and dissectors must not
// call back into the driver except through Sink, and must not retain
// references to buffers or records past the call that provided them.
type Sink interface {
	// GetIDFor assigns (or looks up) the dictionary id for layout.
	GetIDFor(layout Layout) uint64
	// AddPacket enqueues a fully-encoded packet buffer for assembly.
	AddPacket(buf *Buffer)
}

// Observer implements lifecycle hooks invoked around each
// event-encode call (§4.8). Observers implement only the hooks they
// need; NopObserver supplies no-op defaults for the rest.
type Observer interface {
	OnBeginProcessEvent(sink Sink, rec *etwprovider.Record)
	OnExtractEventInfo(sink Sink, rec *etwprovider.Record, info *etwprovider.EventInfo)
	OnDecodePayloadField(sink Sink, parent uint64, element int, name string, inType etwprovider.InType, outType etwprovider.OutType, size int, data []byte)
	OnEndProcessEvent(sink Sink, rec *etwprovider.Record)
}

// NopObserver implements Observer with no-op hooks. Embed it and
// override only the hooks of interest.
type NopObserver struct{}

func (NopObserver) OnBeginProcessEvent(Sink, *etwprovider.Record) {}
func (NopObserver) OnExtractEventInfo(Sink, *etwprovider.Record, *etwprovider.EventInfo) {
}
func (NopObserver) OnDecodePayloadField(Sink, uint64, int, string, etwprovider.InType, etwprovider.OutType, int, []byte) {
}
func (NopObserver) OnEndProcessEvent(Sink, *etwprovider.Record) {}

type observerRegistry struct {
	mu        sync.Mutex
	observers []Observer
}

var defaultObservers observerRegistry

// RegisterObserver adds o to the default registry. Observers are
// notified in registration order.
func RegisterObserver(o Observer) {
	defaultObservers.mu.Lock()
	defer defaultObservers.mu.Unlock()
	defaultObservers.observers = append(defaultObservers.observers, o)
}

func registeredObservers() []Observer {
	defaultObservers.mu.Lock()
	defer defaultObservers.mu.Unlock()
	return append([]Observer(nil), defaultObservers.observers...)
}

// NotifyBeginProcessEvent invokes OnBeginProcessEvent on every
// registered observer, in registration order.
func NotifyBeginProcessEvent(sink Sink, rec *etwprovider.Record) {
	for _, o := range registeredObservers() {
		o.OnBeginProcessEvent(sink, rec)
	}
}

// NotifyExtractEventInfo invokes OnExtractEventInfo on every
// registered observer, in registration order.
func NotifyExtractEventInfo(sink Sink, rec *etwprovider.Record, info *etwprovider.EventInfo) {
	for _, o := range registeredObservers() {
		o.OnExtractEventInfo(sink, rec, info)
	}
}

// NotifyDecodePayloadField invokes OnDecodePayloadField on every
// registered observer, in registration order.
func NotifyDecodePayloadField(sink Sink, parent uint64, element int, name string, inType etwprovider.InType, outType etwprovider.OutType, size int, data []byte) {
	for _, o := range registeredObservers() {
		o.OnDecodePayloadField(sink, parent, element, name, inType, outType, size, data)
	}
}

// NotifyEndProcessEvent invokes OnEndProcessEvent on every registered
// observer, in registration order.
func NotifyEndProcessEvent(sink Sink, rec *etwprovider.Record) {
	for _, o := range registeredObservers() {
		o.OnEndProcessEvent(sink, rec)
	}
}
