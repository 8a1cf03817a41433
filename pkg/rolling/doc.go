// Package rolling decides whether managed instances may be restarted.
//
// A CA renewal changes the generation the instances must trust. Restarting
// them is disruptive, so it only happens inside a maintenance time window
// unless the old CA has already expired.
package rolling
