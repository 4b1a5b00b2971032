package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/asdine/storm/v3"
	"github.com/clouddrop/clouddrop/internal/database"
	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

func main() {
	c := &coral.Command{
		Use:   "rmuser",
		Short: "Remove a user from the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			//
			//
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], database.StormCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			// Fetch user
			var user model.User
			err = db.One("Email", strings.ToLower(args[1]), &user)
			if err != nil {
				if err == storm.ErrNotFound {
					fmt.Println("No account for this email")
					return nil
				}
				return errors.Wrap(err, "find user by mail")
			}

			fmt.Println("User found:", user.ID)

			// Clear the current-user snapshot if it belongs to this account
			var snapshot model.User
			err = db.Get(database.StateBucket, database.CurrentUserKey, &snapshot)
			if err == nil && snapshot.ID == user.ID {
				err = db.Delete(database.StateBucket, database.CurrentUserKey)
				if err != nil && err != storm.ErrNotFound {
					return errors.Wrap(err, "delete current-user snapshot")
				}
				fmt.Println("Current-user snapshot removed")
			}

			// Delete user
			err = db.DeleteStruct(&user)
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete user")
			}
			fmt.Println("User removed")

			return nil
		},
	}

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
