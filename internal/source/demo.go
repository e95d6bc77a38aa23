package source

import (
	"context"

	"civic_ingest/internal/model"
)

var demoPosts = []model.RawPost{
	{ID: "t1", Source: model.SourceSocial, OriginHandle: "@delhi_resident", ReceivedLabel: "2m ago",
		Text: "The streetlight near Connaught Place has been broken for 2 weeks!! Nobody fixing it #DelhiProblems #Infrastructure"},
	{ID: "w1", Source: model.SourceGroup, OriginHandle: "Resident Group Delhi", ReceivedLabel: "5m ago",
		Text: "Bhai logo garbage truck aaya hi nahi 3 din se, hamare block mein bahut smell aa rahi hai. Koi complain karo please"},
	{ID: "t2", Source: model.SourceSocial, OriginHandle: "@angryCitizen99", ReceivedLabel: "8m ago",
		Text: "HUGE pothole on MG Road near metro station. My bike's tyre burst! @MunicipalCorp @DelhiGovt please fix URGENTLY 🚨"},
	{ID: "e1", Source: model.SourceEmail, OriginHandle: "ramesh.k@gmail.com", ReceivedLabel: "12m ago",
		Text: "Subject: Water supply cut for 4 days in Sector 14\n\nDear Sir, We have not received water supply for the past 4 days in Sector 14, Dwarka. Kindly look into this matter urgently."},
	{ID: "t3", Source: model.SourceSocial, OriginHandle: "@localreporter", ReceivedLabel: "15m ago",
		Text: "Park in Lajpat Nagar completely vandalized. Benches broken, graffiti everywhere. Kids have nowhere to play. @DDA_India"},
	{ID: "w2", Source: model.SourceGroup, OriginHandle: "Colony WhatsApp", ReceivedLabel: "18m ago",
		Text: "Bus stop ka shed toot gaya 2 mahine pehle se. Baarish mein bohot problem hoti hai. Koi sunta hi nahi hai"},
	{ID: "e2", Source: model.SourceEmail, OriginHandle: "priya.sharma@yahoo.com", ReceivedLabel: "22m ago",
		Text: "Subject: Illegal parking blocking our driveway\n\nFor the past month, unknown vehicles are parking in front of our gate at 45 Vasant Vihar. Police not responding to calls."},
	{ID: "t4", Source: model.SourceSocial, OriginHandle: "@techie_delhi", ReceivedLabel: "25m ago",
		Text: "lol free pizza lol discount code FREE100 click link bit.ly/fakespam not a real complaint haha spam test"},
	{ID: "w3", Source: model.SourceGroup, OriginHandle: "Saket Residents", ReceivedLabel: "28m ago",
		Text: "Sewer line overflow ho gayi Select City Walk ke peeche. Raste pe paani bhar gaya. Bahut buri smell. Health hazard ban raha hai"},
	{ID: "t5", Source: model.SourceSocial, OriginHandle: "@frustrated_mom", ReceivedLabel: "31m ago",
		Text: "The playground at RK Puram park is so dangerous!! Rusty swings, broken slide. My child got hurt yesterday. This is unacceptable @DelhiGovt"},
	{ID: "e3", Source: model.SourceEmail, OriginHandle: "suresh.v@hotmail.com", ReceivedLabel: "35m ago",
		Text: "Subject: Dead tree leaning on power lines\n\nA large dead tree at B-12 Green Park Extension is leaning dangerously over power lines. It can fall any time and cause serious accidents."},
	{ID: "t6", Source: model.SourceSocial, OriginHandle: "@spambot_xyz", ReceivedLabel: "38m ago",
		Text: "BUY NOW!!! Best deals!!! Click here!!! Not related to civic issues at all. aaaa aaa test test test"},
}

// Demo returns a copy of the built-in demo batch.
func Demo() []model.RawPost {
	out := make([]model.RawPost, len(demoPosts))
	copy(out, demoPosts)
	return out
}

// DemoFeed serves the demo batch.
type DemoFeed struct{}

// Name implements Feed.
func (DemoFeed) Name() string { return "demo" }

// Posts implements Feed.
func (DemoFeed) Posts(context.Context) ([]model.RawPost, error) {
	return Demo(), nil
}
