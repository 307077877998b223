package repositories

const (
	ResourceUsers          = "users"
	ResourceVerification   = "verification"
	ResourceRentalRequests = "rental_requests"
	ResourceHistory        = "history"
	ResourceDeals          = "deals"
)

var UserSchema = Schema{
	Resource: ResourceUsers,
	Table:    "users",
	Key:      "id",
	Columns: []Column{
		{Field: "id", Name: "id", Kind: KindUUID},
		{Field: "email", Name: "email", Kind: KindText, Writable: true, Rules: "required,email,max=254"},
		{Field: "name", Name: "name", Kind: KindText, Writable: true, Rules: "max=120"},
		{Field: "role", Name: "role", Kind: KindText, Writable: true, Rules: "required,max=32"},
		{Field: "isVerified", Name: "is_verified", Kind: KindBool, Writable: true},
		{Field: "isCompany", Name: "is_company", Kind: KindBool, Writable: true},
		{Field: "isOwner", Name: "is_owner", Kind: KindBool, Writable: true},
		{Field: "isRenter", Name: "is_renter", Kind: KindBool, Writable: true},
		{Field: "avatar_url", Name: "avatar_url", Kind: KindText, Writable: true, Nullable: true, Rules: "omitempty,url"},
		{Field: "phone", Name: "phone", Kind: KindText, Writable: true, Nullable: true, Rules: "max=32"},
		{Field: "created_at", Name: "created_at", Kind: KindTime},
		{Field: "updated_at", Name: "updated_at", Kind: KindTime},
	},
	DefaultSort: []Sort{{Field: "created_at", Desc: true}},
	Touch:       "updated_at",
}

var VerificationSchema = Schema{
	Resource: ResourceVerification,
	Table:    "verification",
	Key:      "id",
	Columns: []Column{
		{Field: "id", Name: "id", Kind: KindInt},
		{Field: "user_id", Name: "user_id", Kind: KindUUID, Writable: true, Rules: "required,uuid"},
		{Field: "national_id_image_url", Name: "national_id_image_url", Kind: KindText, Writable: true, Rules: "required,url"},
		{Field: "license_image_url", Name: "license_image_url", Kind: KindText, Writable: true, Nullable: true, Rules: "omitempty,url"},
		{Field: "status", Name: "status", Kind: KindText, Writable: true, Rules: "oneof=PENDING APPROVED REJECTED"},
		{Field: "created_at", Name: "created_at", Kind: KindTime},
		{Field: "updated_at", Name: "updated_at", Kind: KindTime},
	},
	DefaultSort: []Sort{{Field: "created_at", Desc: true}},
	Touch:       "updated_at",
}

var RentalRequestSchema = Schema{
	Resource: ResourceRentalRequests,
	Table:    "rental_requests",
	Key:      "id",
	Columns: []Column{
		{Field: "id", Name: "id", Kind: KindInt},
		{Field: "user_id", Name: "user_id", Kind: KindUUID},
		{Field: "vehicle_id", Name: "vehicle_id", Kind: KindInt},
		{Field: "status", Name: "status", Kind: KindText},
		{Field: "start_date", Name: "start_date", Kind: KindTime, Nullable: true},
		{Field: "end_date", Name: "end_date", Kind: KindTime, Nullable: true},
		{Field: "location", Name: "location", Kind: KindText, Nullable: true},
		{Field: "address", Name: "address", Kind: KindText, Nullable: true},
		{Field: "payment", Name: "payment", Kind: KindText, Nullable: true},
		{Field: "notes", Name: "notes", Kind: KindText, Nullable: true},
		{Field: "created_at", Name: "created_at", Kind: KindTime},
		{Field: "updated_at", Name: "updated_at", Kind: KindTime},
	},
	DefaultSort: []Sort{{Field: "created_at", Desc: true}},
	ReadOnly:    true,
}

var HistorySchema = Schema{
	Resource: ResourceHistory,
	Table:    "history",
	Key:      "id",
	Columns: []Column{
		{Field: "id", Name: "id", Kind: KindInt},
		{Field: "title", Name: "title", Kind: KindText},
		{Field: "message", Name: "message", Kind: KindText},
		{Field: "user_id", Name: "user_id", Kind: KindUUID, Nullable: true},
		{Field: "created_at", Name: "created_at", Kind: KindTime},
	},
	DefaultSort: []Sort{{Field: "created_at", Desc: true}},
	ReadOnly:    true,
}

var DealSchema = Schema{
	Resource: ResourceDeals,
	Table:    "deals",
	Key:      "id",
	Columns: []Column{
		{Field: "id", Name: "id", Kind: KindInt},
		{Field: "title", Name: "title", Kind: KindText},
		{Field: "value", Name: "value", Kind: KindFloat},
		{Field: "stage", Name: "stage", Kind: KindText},
		{Field: "company", Name: "company", Kind: KindText, Nullable: true},
	},
	DefaultSort: []Sort{{Field: "id", Desc: true}},
	ReadOnly:    true,
}
