// Package rest provides a small JSON REST client over the standard
// library's http package:
//   - Base URL parsing with scheme/port defaulting (https, 443/80)
//   - Default query parameters and headers merged under per-call values
//   - Automatic JSON body encoding and response decoding
//   - Status classification: < 400 succeeds, >= 400 returns *Error
//   - Hook points for tracing/metrics without hard dependencies
package rest
