// Package funnel derives the active playbook funnel from contact status.
package funnel

import "strings"

const (
	// SDR is the funnel for contacts already worked by an SDR.
	SDR = "core_sdr"
	// BDR is the default intake funnel.
	BDR = "core_bdr"

	sdrStatusPrefix = "sdr_"
)

// Resolve maps a contact status to its funnel. Statuses with the sdr_ prefix
// route to the SDR funnel, everything else (including empty) to BDR.
func Resolve(status string) string {
	if status != "" && strings.HasPrefix(status, sdrStatusPrefix) {
		return SDR
	}
	return BDR
}
