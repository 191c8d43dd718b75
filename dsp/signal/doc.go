// Package signal generates deterministic test signals and provides the
// peak normalizer shared by the pitch engines.
package signal
