// Package api contains the HTTP handlers, request and response models, and
// error mapping for the bookkeeping API. Handlers stay thin: they decode and
// validate the payload, resolve the owner from the authenticated context, and
// delegate to the service layer.
package api
