package inbox

import "github.com/learncrew/learncrew-agent/internal/models"

// Display is how an inbox item is titled and iconed in the UI
type Display struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

var displayByType = map[models.InboxType]Display{
	models.InboxMentorship:   {Icon: "graduation-cap", Label: "Mentorship Request"},
	models.InboxPartner:      {Icon: "users", Label: "Partnership Request"},
	models.InboxPartnership:  {Icon: "users", Label: "Partnership Request"},
	models.InboxNotification: {Icon: "bell", Label: "Notification"},
}

var fallbackDisplay = Display{Icon: "inbox", Label: "Inbox Item"}

// DisplayFor maps an item type to its icon and label. Unknown types fall
// back to a generic pair.
func DisplayFor(itemType models.InboxType) Display {
	if d, ok := displayByType[itemType]; ok {
		return d
	}
	return fallbackDisplay
}
