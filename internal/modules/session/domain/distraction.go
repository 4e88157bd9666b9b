package domain

import "time"

type Kind string

const (
	KindNotification Kind = "notification"
	KindHologram     Kind = "hologram"
	KindHazard       Kind = "hazard"
)

type Distraction struct {
	ID       string
	Kind     Kind
	Position Point
	Title    string
	Message  string
	Icon     string
	Age      time.Duration
	Lifespan time.Duration
}

func (d Distraction) Expired() bool {
	return d.Age >= d.Lifespan
}

func (d Distraction) Remaining() time.Duration {
	if d.Age >= d.Lifespan {
		return 0
	}
	return d.Lifespan - d.Age
}

type notificationTemplate struct {
	Title   string
	Message string
	Icon    string
}

var notifications = []notificationTemplate{
	{Title: "Messages", Message: "Hey, are you free tonight?", Icon: "💬"},
	{Title: "Mail", Message: "Your order has shipped", Icon: "✉"},
	{Title: "Calendar", Message: "Standup starts in 5 minutes", Icon: "📅"},
	{Title: "News", Message: "Breaking: markets move sharply", Icon: "📰"},
	{Title: "Social", Message: "Someone liked your photo", Icon: "❤"},
	{Title: "Weather", Message: "Rain expected this afternoon", Icon: "☂"},
	{Title: "Reminders", Message: "Drink some water", Icon: "⏰"},
	{Title: "Fitness", Message: "Time to stand up and move", Icon: "🏃"},
	{Title: "Bank", Message: "New sign-in to your account", Icon: "🏦"},
	{Title: "Games", Message: "Your energy is full again!", Icon: "🎮"},
}
