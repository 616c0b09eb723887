package companieshouse

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"companyscan/pkg/domain"
)

func decodeCompany(data []byte) (*domain.Company, error) {
	var c domain.Company

	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var (
			s   string
			err error
		)
		switch key {
		case "company_number":
			c.Number, err = optString(d)
		case "company_name":
			c.Name, err = optString(d)
		case "company_status":
			s, err = optString(d)
			c.Status = domain.CompanyStatus(s)
		case "type":
			s, err = optString(d)
			c.Type = domain.CompanyType(s)
		case "date_of_creation":
			if s, err = optString(d); err == nil && s != "" {
				c.CreatedOn, err = time.Parse(time.DateOnly, s)
			}
		case "registered_office_address":
			c.RegisteredOffice, err = decodeAddress(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "company")
	}

	return &c, nil
}

func decodeAddress(d *jx.Decoder) (*domain.Address, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}

	var a domain.Address
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "address_line_1":
			a.AddressLine1, err = optString(d)
		case "country":
			a.Country, err = optString(d)
		case "locality":
			a.Locality, err = optString(d)
		case "postal_code":
			a.PostalCode, err = optString(d)
		default:
			err = d.Skip()
		}

		return err
	}); err != nil {
		return nil, err
	}

	return &a, nil
}

func decodeListing(data []byte) (*domain.OfficerListing, error) {
	var l domain.OfficerListing

	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "active_count":
			n, err := optInt(d)
			if err != nil {
				return errors.Wrap(err, key)
			}
			l.ActiveCount = n

			return nil
		case "items":
			if d.Next() == jx.Null {
				return d.Null()
			}

			return d.Arr(func(d *jx.Decoder) error {
				o, err := decodeOfficer(d)
				if err != nil {
					return errors.Wrap(err, "item")
				}
				l.Items = append(l.Items, o)

				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "listing")
	}

	return &l, nil
}

func decodeOfficer(d *jx.Decoder) (domain.Officer, error) {
	var o domain.Officer
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var (
			s   string
			err error
		)
		switch key {
		case "name":
			o.Name, err = optString(d)
		case "officer_role":
			s, err = optString(d)
			o.Role = domain.OfficerRole(s)
		default:
			err = d.Skip()
		}

		return err
	})

	return o, err
}

func optString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}

	return d.Str()
}

func optInt(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}

	return d.Int()
}
