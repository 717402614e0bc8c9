package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"property_id",
			"room_id",
			"name",
			"lastname",
			"start_date",
			"end_date",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"lastname": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"phone": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},

			"mail": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"adults": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  50,
			},

			"children": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  50,
			},

			"status": bson.M{
				"enum": []string{"preliminary", "deposit_paid", "confirmed", "booking"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
