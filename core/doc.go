// Package core is the ShipCompliant operation façade. A Client turns dynamic
// input into typed requests, runs each call on its own bridge runner and
// normalizes typed results and errors back into dynamic values with
// snake_case keys.
//
// Structured API errors, unexpected responses and invalid payloads come back
// as data. Transport failures, bad input and transcoding failures are raised
// as *goerrors.Error values whose message starts with "error: ".
package core
