package utils

import "github.com/mileusna/useragent"

// DeviceInfo ringkasan User-Agent untuk log session
type DeviceInfo struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

func ParseDevice(raw string) DeviceInfo {
	ua := useragent.Parse(raw)
	return DeviceInfo{
		Browser: ua.Name,
		OS:      ua.OS,
		Mobile:  ua.Mobile || ua.Tablet,
		Bot:     ua.Bot,
	}
}
