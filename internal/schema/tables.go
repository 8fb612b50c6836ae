package schema

// Logical table names and fetch ranges in the backing spreadsheet. The
// header row lives in row 1, so every range starts at row 2. Write ranges
// cover whole columns because the store appends below the last row.
const (
	RangeMaterials     = "Materials!A2:K"
	RangeParties       = "Parties!A2:H"
	RangeSales         = "Sales!A2:P"
	RangeSaleItems     = "Sale_Items!A2:I"
	RangePurchases     = "Purchases!A2:L"
	RangePurchaseItems = "Purchase_Items!A2:H"
	RangeExpenses      = "Expenses!A2:F"
	RangeNotifications = "Notifications!A2:D"

	AppendMaterials     = "Materials!A:K"
	AppendParties       = "Parties!A:H"
	AppendSales         = "Sales!A:P"
	AppendSaleItems     = "Sale_Items!A:I"
	AppendPurchases     = "Purchases!A:L"
	AppendPurchaseItems = "Purchase_Items!A:H"
	AppendExpenses      = "Expenses!A:F"
	AppendNotifications = "Notifications!A:D"
)

// Column positions per table. These are the schema contract with the
// external store; the adapter is the only place allowed to index raw rows.
const (
	MatColID = iota
	MatColName
	MatColDescription
	MatColOpeningBags
	MatColOpeningKg
	MatColTaxRatePct
	MatColPurchaseRate
	MatColSellingRate
	MatColHSNCode
	MatColLiveKg
	MatColLiveBags
)

const (
	PartyColID = iota
	PartyColName
	PartyColRole
	PartyColGSTIN
	PartyColPhone
	PartyColEmail
	PartyColAddress
	PartyColStatus
)

const (
	SaleColInvoiceNo = iota
	SaleColChallanNo
	SaleColInvoiceDate
	SaleColOrderDate
	SaleColPartyID
	SaleColPartyName
	SaleColSubtotal
	SaleColCGST
	SaleColSGST
	SaleColIGST
	SaleColGrandTotal
	SaleColPaymentMode
	SaleColStatus
	SaleColPaymentRef
	SaleColPaymentDate
	SaleColOrderChannel
)

const (
	SaleItemColID = iota
	SaleItemColInvoiceNo
	SaleItemColMaterialID
	SaleItemColMaterialName
	SaleItemColBags
	SaleItemColKg
	SaleItemColRate
	SaleItemColTaxRatePct
	SaleItemColAmount
)

const (
	PurColID = iota
	PurColBillNo
	PurColDate
	PurColSupplierID
	PurColSupplierName
	PurColSubtotal
	PurColTaxAmount
	PurColGrandTotal
	PurColStatus
	PurColPaymentDate
	PurColPaymentRef
	PurColPhotoURLs
)

const (
	PurItemColID = iota
	PurItemColPurchaseID
	PurItemColMaterialID
	PurItemColMaterialName
	PurItemColBags
	PurItemColKg
	PurItemColRate
	PurItemColAmount
)

const (
	ExpColID = iota
	ExpColDate
	ExpColCategory
	ExpColAmount
	ExpColDescription
	ExpColPaymentMode
)

const (
	NotifColTimestamp = iota
	NotifColType
	NotifColMessage
	NotifColAuthor
)

// Status vocabulary as written in the store.
const (
	SaleStatusPending   = "Pending"
	SaleStatusConfirmed = "Confirmed"

	PurchaseStatusUnpaid = "Unpaid"
	PurchaseStatusPaid   = "Paid"

	PartyRoleCustomer = "Customer"
	PartyRoleSupplier = "Supplier"
	PartyRoleBoth     = "Both"

	PartyStatusActive   = "Active"
	PartyStatusInactive = "Inactive"
)
