package timings

// Response is the subset of the Al Adhan timings response the lookup reads.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   *Data  `json:"data"`
}

type Data struct {
	Timings *Timings `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings holds the API's time fields. Values may carry seconds or a
// timezone suffix such as "05:12 (PKT)".
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type DateInfo struct {
	Readable  string `json:"readable"`
	Timestamp string `json:"timestamp"`
}

// Meta carries the location's IANA timezone, e.g. "Asia/Karachi".
type Meta struct {
	Timezone string `json:"timezone"`
}
