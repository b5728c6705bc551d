package validation

// Composite validators mirror the entry forms: they run every field check,
// collect all failures and return them joined, instead of stopping at the
// first one.

// ProductInput carries the raw product fields and receives the normalized values.
type ProductInput struct {
	Name            string
	CategoryID      uint
	PurchasePrice   float64
	SellingPrice    float64
	InitialQuantity int
	MinStockLevel   int
}

// ValidateProduct checks all product fields at once.
func ValidateProduct(in ProductInput) (ProductInput, error) {
	v := Violations{}
	if name, err := ProductName(in.Name); err != nil {
		v.Add(err)
	} else {
		in.Name = name
	}
	if in.CategoryID == 0 {
		v.Add(fail("category_id", "Veuillez sélectionner une catégorie"))
	}
	_, perr := PositiveNumber(in.PurchasePrice, "Prix d'achat", true)
	if perr != nil {
		v.Add(perr)
	}
	_, serr := PositiveNumber(in.SellingPrice, "Prix de vente", true)
	if serr != nil {
		v.Add(serr)
	}
	if perr == nil && serr == nil {
		v.Add(PriceMargin(in.PurchasePrice, in.SellingPrice))
	}
	if _, err := PositiveInteger(in.InitialQuantity, "Quantité initiale", true); err != nil {
		v.Add(err)
	}
	if _, err := PositiveInteger(in.MinStockLevel, "Stock minimum", true); err != nil {
		v.Add(err)
	}
	if !v.Empty() {
		return in, v
	}
	return in, nil
}

// VendeurInput carries the raw vendeur fields and receives the normalized values.
type VendeurInput struct {
	Name      string
	Telephone string
}

// ValidateVendeur checks all vendeur fields at once.
func ValidateVendeur(in VendeurInput) (VendeurInput, error) {
	v := Violations{}
	if name, err := VendeurName(in.Name); err != nil {
		v.Add(err)
	} else {
		in.Name = name
	}
	if phone, err := Phone(in.Telephone, false); err != nil {
		v.Add(err)
	} else {
		in.Telephone = phone
	}
	if !v.Empty() {
		return in, v
	}
	return in, nil
}

// UserInput carries the raw account fields and receives the normalized values.
type UserInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	FullName        string
}

// ValidateUser checks all account-creation fields at once.
func ValidateUser(in UserInput) (UserInput, error) {
	v := Violations{}
	if username, err := Username(in.Username); err != nil {
		v.Add(err)
	} else {
		in.Username = username
	}
	if _, err := Password(in.Password); err != nil {
		v.Add(err)
	} else if in.Password != in.ConfirmPassword {
		v.Add(fail("confirm_password", "Les mots de passe ne correspondent pas"))
	}
	if fullName, err := Required(in.FullName, "Nom complet"); err != nil {
		v.Add(err)
	} else if fullName, err = StringLength(fullName, 0, 100, "Nom complet"); err != nil {
		v.Add(err)
	} else {
		in.FullName = fullName
	}
	if !v.Empty() {
		return in, v
	}
	return in, nil
}
