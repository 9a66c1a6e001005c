// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the boardroom API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(board, catalog, cfg)

# Endpoints

Health:

	GET /health

Board members:

	GET /members           - Members, current user flagged
	GET /members/rankings  - By success rate and activity (?q= search)

Meetings:

	GET  /meetings          - All meetings by date
	GET  /meetings/upcoming - Meetings from today on
	GET  /meetings/{id}     - Detail with stats and documents
	POST /meetings          - Create meeting with voting items
	GET  /calendar          - Meetings by day (?month=yyyy-MM)

Documents:

	GET /documents - Meeting and other documents (?meeting= or ?month=yyyy-MM)

Voting:

	GET  /decisions              - Dashboard
	GET  /decisions/{id}         - Decision detail and member votes
	POST /decisions/{id}/votes   - Vote as the acting member
	PUT  /decisions/{id}/outcome - Set or clear the outcome
	PUT  /decisions/{id}/status  - Open or close the tally

Governance and tenders:

	GET  /compliance          - Portal submissions (?status=&q=)
	GET  /tenders             - Tender listings (?status=&q=)
	POST /tenders/{id}/viewed - Mark a tender viewed

# Acting Member

The acting member is cfg.CurrentMemberID. With cfg.AllowMemberHeader the
X-Member-ID header overrides it for development.
*/
package router
