package constants

type FSType int

const (
	FS_INT32 FSType = iota + 1 // int32
	FS_INT64                   // int64
	FS_FLOAT
	FS_DOUBLE
	FS_STRING
	FS_BOOLEAN
	FS_TIMESTAMP
	FS_ARRAY_INT32
	FS_ARRAY_INT64
	FS_ARRAY_FLOAT
	FS_ARRAY_DOUBLE
	FS_ARRAY_STRING
)

const (
	Datasource_Type_Postgres   = "Postgres"
	Datasource_Type_Mysql      = "Mysql"
	Datasource_Type_Redis      = "Redis"
	Datasource_Type_TableStore = "TableStore"
	Datasource_Type_Stream     = "Stream"
)

// TimeTravelFormat selects the storage layout used for point-in-time
// queries on the offline side of a feature group.
type TimeTravelFormat string

const (
	Time_Travel_Format_None  TimeTravelFormat = "NONE"
	Time_Travel_Format_Hudi  TimeTravelFormat = "HUDI"
	Time_Travel_Format_Delta TimeTravelFormat = "DELTA"

	Default_Time_Travel_Format = Time_Travel_Format_Hudi
)

const (
	Feature_Group_Type_Stream = "streamFeatureGroupDTO"
)
