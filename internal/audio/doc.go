// Package audio synthesizes and plays the alert tone.
// It defines the host audio capability (Context, Node, Source), a pure-Go
// node graph that renders through the beep library, and the TonePlayer
// that primes an output context and plays one alert at a time.
package audio
