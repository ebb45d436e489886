// Package credstore persists the alumni access token between CLI runs.
//
// Both stores satisfy alumnisdk.CredentialStore and key the token by server
// URL, so one machine can hold sessions for several backends.
package credstore
