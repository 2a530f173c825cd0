// SPDX-License-Identifier: MPL-2.0

// Package report aggregates a version resolution and the provisioning stage
// outcomes of one run into a summary that can be rendered as text or JSON.
package report
