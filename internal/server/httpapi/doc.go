// Package httpapi exposes the user service over JSON HTTP.
//
// Routes:
//
//	POST   /api/register
//	POST   /api/login
//	GET    /api/profile/{id}   (bearer)
//	PUT    /api/profile/{id}   (bearer)
//	DELETE /api/profile/{id}   (bearer)
//
// Profile routes require "Authorization: Bearer <token>" and only accept the
// id the token was issued for. Errors are sent as {"message": "..."}.
package httpapi
