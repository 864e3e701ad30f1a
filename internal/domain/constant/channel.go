package constant

// Channel is an independent notification delivery path.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

func (c Channel) String() string {
	return string(c)
}
