// SPDX-License-Identifier: Apache-2.0

// Package mail implements the transport side of the gateway: message
// composition with tenant provenance tags, SMTP delivery via gomail and the
// registry of named mailer bindings tenants dispatch through.
package mail
