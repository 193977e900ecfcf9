// Package sweep determines which addresses on a segment are alive.
//
// Reachability is delegated to a Checker capability so the pool logic is
// testable without touching the network:
//   - PingChecker: shells out to the system ping binary (default); a missing
//     ping binary is fatal for the whole run
//   - ICMPChecker: raw-socket echo for privileged runs
//
// Probes run under a bounded pool (default 80 workers). Addresses are probed
// in likelihood order (gateways and low octets first) but callers re-sort
// results by address, so the ordering only affects time-to-first-result.
package sweep
