package routes

var (
	BearerAuth = []map[string][]string{
		{"bearer": {}},
	}
)

type Tag string

const (
	TagHealth  Tag = "health"
	TagIam     Tag = "iam"
	TagJobs    Tag = "jobs"
	TagReports Tag = "reports"
)

func (t Tag) String() string { return string(t) }
