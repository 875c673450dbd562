// Package askcuny implements a retrieval-augmented question answering
// pipeline over a constrained set of university domains. Given a free-text
// question it discovers a small set of authoritative pages, extracts and
// ranks the most relevant passages, and assembles a grounded answer with
// citations, while respecting site crawl policy and avoiding redundant
// network work.
//
// This package contains domain types, interfaces, and the pure scoring and
// extraction algorithms following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, fs/, gemini/, google/).
package askcuny

// UserAgent is the identifying client token sent with every outbound
// request and evaluated against robots.txt directives.
const UserAgent = "Mozilla/5.0 (compatible; CUNYChatbotScraper/1.0)"
