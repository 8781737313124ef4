package Forms

// Messages shown under each field, per screen.

var CompanyMessages = Messages{
	"name.required": "Name is required",
}

var OrderMessages = Messages{
	"date.required":    "Date is required",
	"product.required": "Product is required",
	"qty.required":     "Quantity is required",
	"qty.num":          "Quantity must be a number",
	"qty.minval":       "Quantity must be at least 1",
	"price.required":   "Price is required",
	"price.num":        "Price must be a number",
	"price.minval":     "Price cannot be negative",
	"company.required": "Company is required",
}

var ReturnOrderMessages = Messages{
	"date.required":         "Date is required",
	"product.required":      "Product is required",
	"qty.required":          "Quantity is required",
	"qty.num":               "Quantity must be a number",
	"qty.minval":            "Quantity must be greater than 0",
	"price.required":        "Price is required",
	"price.num":             "Price must be a number",
	"price.minval":          "Price must be greater than 0",
	"company.required":      "Company is required",
	"returnReason.required": "Return reason is required",
	"returnBy.required":     "Return by is required",
}

var TapeRollMessages = Messages{
	"date.required":     "Date is required",
	"platform.required": "Platform is required",
	"quantity.required": "Quantity is required",
	"quantity.num":      "Quantity must be a number",
	"quantity.minval":   "Quantity must be greater than 0",
	"price.required":    "Price is required",
	"price.num":         "Price must be a number",
	"price.minval":      "Price must be greater than 0",
}

var KraftMailerMessages = Messages{
	"date.required":        "Date is required",
	"quantity.required":    "Quantity is required",
	"quantity.num":         "Quantity must be a number",
	"quantity.minval":      "Quantity must be greater than 0",
	"price.required":       "Price is required",
	"price.num":            "Price must be a number",
	"price.minval":         "Price must be greater than 0",
	"size.width.required":  "Width is required",
	"size.width.num":       "Width must be a number",
	"size.width.minval":    "Width must be greater than 0",
	"size.height.required": "Height is required",
	"size.height.num":      "Height must be a number",
	"size.height.minval":   "Height must be greater than 0",
	"size.depth.required":  "Depth is required",
	"size.depth.num":       "Depth must be a number",
	"size.depth.minval":    "Depth must be greater than 0",
}

var LoginMessages = Messages{
	"email.required":    "Email is required",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
}

var RegisterMessages = Messages{
	"name.required":     "Name is required",
	"email.required":    "Email is required",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
	"password.password": "Must include uppercase, lowercase, number & special char",
	"mobile.required":   "Mobile number is required",
	"mobile.mobile":     "Enter a valid 10-digit mobile number",
}
