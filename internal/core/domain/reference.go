package domain

// EventTypes lists the event classifications offered by the frontend.
// Order is part of the contract; clients render these verbatim.
var EventTypes = []string{
	"Conference",
	"Hackathon",
	"Networking Event",
	"Workshop",
	"Trade Show",
	"Meetup",
	"Webinar",
	"Other",
}

// PersonCategories lists the contact classifications offered by the frontend.
var PersonCategories = []string{
	"Potential Collaborator",
	"Industry Expert",
	"Investor",
	"Peer",
	"Client Prospect",
	"Mentor",
	"Mentee",
	"Other",
}
