// Package httpapp provides the HTTP server for Passgate.
//
//	@title						Passgate API
//	@version					1.0
//	@description				A minimal credential-issuance service.
//	@description
//	@description				## Flow
//	@description
//	@description				```
//	@description				┌──────────────────┐     ┌──────────────────┐     ┌──────────────────┐
//	@description				│  1. Signup       │────▶│  2. Login        │────▶│  3. Validate     │
//	@description				│  POST /signup    │     │  POST /login     │     │  POST /validate  │
//	@description				│  (first time)    │     │  returns token   │     │  token → email   │
//	@description				└──────────────────┘     └──────────────────┘     └──────────────────┘
//	@description				```
//	@description
//	@description				### Step 1: Create an account
//	@description				```bash
//	@description				curl -X POST /signup -d '{"email":"a@x.com","password":"secret"}'
//	@description				```
//	@description
//	@description				### Step 2: Login
//	@description				The first successful login mints an opaque bearer token; every later
//	@description				login returns the same token.
//	@description				```bash
//	@description				curl -X POST /login -d '{"email":"a@x.com","password":"secret"}'
//	@description				# Returns: {"success": true, "token": "TOKEN", ...}
//	@description				```
//	@description
//	@description				### Step 3: Validate
//	@description				```bash
//	@description				curl -X POST /validate -d '{"token":"TOKEN"}'
//	@description				# Returns: {"success": true, "email": "a@x.com"}
//	@description				```
//
//	@contact.name				Passgate
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@tag.name					Credentials
//	@tag.description			Account registration, authentication, and token validation.
//
//	@tag.name					Stats
//	@tag.description			Operational counters.
package httpapp
