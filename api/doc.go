// Package api exposes the credential service over HTTP.
//
//	POST /auth/log_in          {name, password}               -> {token}
//	POST /auth/register        {name, email, password}        -> {token}
//	POST /auth/update_password {name, password, new_password} -> {token}
//	GET  /me                   Authorization: Bearer <token>  -> {id, name, email}
//
// Bearer tokens are resolved on every route; /me additionally requires one.
package api
