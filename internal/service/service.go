// Package service contains the business logic.
//
// It sits between the handler layer and the infrastructure held by
// server.Server (the email client). Handlers pass it validated input;
// services never see echo.Context.
package service
