// Package hardware and its sub-packages contain every PSX component the
// core emulates: the CPU, the GPU, DMA, the interrupt aggregator, the
// timers, and the per-run instance state tying them together. None of it
// depends on a host window, audio output or input device; system.System
// wires it for either headless or debugger-driven stepping.
package hardware

