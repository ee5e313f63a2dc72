package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingSchema is the server-side JSON schema for the Bookings
// collection. It guards the shape only; status vocabulary and
// appointment instants stay application concerns because legacy rows
// carry free-form values the classifier must still accept.
func BookingSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{
				"booking_id", "user_id", "vendor_id", "service_type",
				"appointment_date", "appointment_time", "booking_status",
				"name", "address", "created_at",
			},
			"properties": bson.M{
				"booking_id": bson.M{
					"bsonType":    "string",
					"description": "public booking identifier, unique",
				},
				"user_id": bson.M{
					"bsonType": "string",
				},
				"vendor_id": bson.M{
					"bsonType": "string",
				},
				"service_type": bson.M{
					"enum": []string{"Oxi Clinic", "Oxi Wheel"},
				},
				"appointment_date": bson.M{
					"bsonType":    "string",
					"description": "calendar date, YYYY-MM-DD with optional suffix",
				},
				"appointment_time": bson.M{
					"bsonType":    "string",
					"description": "clock time, 24h or 12h with meridian",
				},
				"booking_status": bson.M{
					"bsonType": "string",
				},
				"name": bson.M{
					"bsonType":  "string",
					"maxLength": 100,
				},
				"address": bson.M{
					"bsonType":  "string",
					"maxLength": 300,
				},
				"phone_number": bson.M{
					"bsonType": "string",
				},
				"email": bson.M{
					"bsonType": "string",
				},
				"service_price": bson.M{
					"bsonType": "string",
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
