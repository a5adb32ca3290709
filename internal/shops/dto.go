package shops

// ShopRecord mirrors shop_info.json. The shop name doubles as the folder
// name under the data root, so renaming a shop moves its folder.
type ShopRecord struct {
	ShopName      string   `json:"shop_name"`
	OwnerName     string   `json:"owner_name"`
	Address       string   `json:"address"`
	MobileNumbers []string `json:"mobile_numbers"`
}
