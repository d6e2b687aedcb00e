// Command legaldigest runs the Legal Digest web application and its
// operator tasks (migrations, superuser bootstrap, tag listing).
// Its sole responsibility is wiring dependencies together.
// No business logic belongs here.
package main

// Set by -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	Execute()
}
