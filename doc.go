// Package alengine implements a software 3D audio mixing engine modeled
// on the OpenAL API surface: device and context lifecycle, positional
// sources with distance/cone/Doppler attenuation and HRTF or
// channel-panned spatialization, streaming buffer queues, and an
// auxiliary effect-slot send graph.
//
// alengine owns the mixing pipeline only. Concrete platform audio
// backends, on-disk configuration file parsing, and a C-callable export
// surface are out of scope; applications supply a Backend (oto, the
// bundled loopback/null references, or their own) and drive Device.Render
// from their own timing source.
package alengine
